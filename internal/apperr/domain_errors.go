package apperr

var (
	// Domain errors shared across registry, messages and presence.
	ErrChannelNotFound  = NotFound("channel not found")
	ErrMessageNotFound  = NotFound("message not found")
	ErrUserNotFound     = NotFound("user not found")
	ErrNotAdmin         = NotAuthorized("only the channel admin may do that")
	ErrNotMember        = NotAuthorized("not a member of this channel")
	ErrBannedFromJoin   = Banned("you are banned from this channel")
	ErrNameTaken        = NameUnavailable("channel name is already in use")
	ErrNameLocked       = NameUnavailable("channel name is temporarily reserved")
	ErrAlreadyMember    = AlreadyExists("already a member of this channel")
	ErrNotLoggedIn      = NotAuthorized("no active session")
	ErrInvalidChannel   = InvalidArg("channel name must be 1-64 characters")
	ErrEmptyMessage     = InvalidArg("message content cannot be empty")
	ErrNotJoined        = NotSubscribed("channel is not joined on this connection")
	ErrConnectionClosed = Transient("push connection is closed", nil)
)
