package results

import "codeberg.org/halvar/luxaudit/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("results_invalid_db_path")

	// Schema Errors
	ErrSchemaInitFailed       = errors.ErrorCode("results_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("results_schema_validation_failed")
	ErrTransactionFailed      = errors.ErrorCode("results_transaction_failed")

	// Storage Errors
	ErrStorageInit  = errors.ErrInitFailed
	ErrStorageClose = errors.ErrShutdownFailed
	ErrStorageQuery = errors.ErrorCode("results_query_failed")

	// Service Errors
	ErrServiceShutdown = errors.ErrShutdownFailed
	ErrInvalidRecord   = errors.ErrorCode("results_invalid_record")
	ErrRecordFailed    = errors.ErrorCode("results_record_failed")

	// Operation Errors
	ErrOperationTimeout = errors.ErrTimeout
)
