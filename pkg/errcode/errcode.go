package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Configuration errors
	ConfigMissingURIError

	// Document store errors
	StoreConnectionError
	StoreNotConnectedError
	StoreListCollectionsError
	StoreCollectionMissingError
	StoreFindError
	StoreDecodeError
	StoreReplaceError
	StoreInsertError

	// Mapping table errors
	MappingParseError
	MappingGenerationError
	MappingDuplicateError
	MappingEntryError
	MappingUnknownTableError

	// Migration errors
	MigrationPlanError
	MigrationCancelledError
	MigrationBackupError
	MigrationWriteError
	MigrationPartialError

	// Report errors
	ReportDateRangeError

	// PostgreSQL errors
	DBConnectionError
	DBNotConnectedError
	DBTableExistsCheckError
	DBTruncateError

	// Schema errors
	SchemaGORMConnectionError
	SchemaMigrateError

	// Export errors
	ExportQueryError
	ExportCopyError
	ExportRunRecordError
)
