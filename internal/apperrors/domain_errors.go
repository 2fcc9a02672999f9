package apperrors

// Доменные ошибки — используются в ledger/conversation/gateway
var (
	ErrSelfTrade         = InvalidArg("cannot send trade request to yourself")
	ErrSkillNotFound     = NotFound("skill not found")
	ErrOwnershipMismatch = InvalidArg("receiver id mismatch")
	ErrRequestNotFound   = NotFound("request not found")
	ErrAlreadyProcessed  = FailedPrecondition("already processed")
	ErrEmptyMessage      = InvalidArg("message cannot be empty")
	ErrTradeNotAccepted  = FailedPrecondition("trade not accepted")
	ErrUserNotFound      = NotFound("user not found")
	ErrEmailTaken        = AlreadyExists("email already registered")
	ErrUsernameTaken     = AlreadyExists("username already taken")
	ErrInvalidToken      = Unauthorized("token expired or invalid")
	ErrMissingToken      = Unauthorized("missing token")
)
