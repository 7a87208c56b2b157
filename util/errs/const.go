package errs

const (
	ErrCode_OK             = 0
	ErrCode_Unknown        = 1
	ErrCode_InvalidTimeout = 100
	ErrCode_InvalidConfig  = 101
	ErrCode_PoolClosed     = 102
)

var (
	Unknown        = CreateCodeError(ErrCode_Unknown, "UNKNOWN")
	InvalidTimeout = CreateCodeError(ErrCode_InvalidTimeout, "INVALID_TIMEOUT")
	InvalidConfig  = CreateCodeError(ErrCode_InvalidConfig, "INVALID_CONFIG")
	PoolClosed     = CreateCodeError(ErrCode_PoolClosed, "POOL_CLOSED")
)
