package playable

// UserError is an error that is safe to return in a response
type UserError string

func (u UserError) Error() string {
	return string(u)
}

// common precondition errors; none of these leave any state behind
var (
	ErrPlayerNotAtTable  = UserError("player is not at the table")
	ErrTableFull         = UserError("table is full")
	ErrNotYourTurn       = UserError("it is not your turn")
	ErrTablePaused       = UserError("table is paused")
	ErrHandInProgress    = UserError("a hand is in progress")
	ErrInsufficientChips = UserError("insufficient chips")
	ErrNotTableAdmin     = UserError("player is not the table admin")
)
