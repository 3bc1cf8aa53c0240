package domain

// Stage is the position of a conversion dialogue within its fixed sequence
// of prompts. A session only exists while a dialogue is active, so there is
// no explicit idle stage; idle means "no session stored".
type Stage string

const (
	StageAwaitingFrom   Stage = "awaiting_from"
	StageAwaitingTo     Stage = "awaiting_to"
	StageAwaitingAmount Stage = "awaiting_amount"
)

// Session is the per-chat state of an in-progress currency conversion.
type Session struct {
	From  string
	To    string
	Stage Stage
}
