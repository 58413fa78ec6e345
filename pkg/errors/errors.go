package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition carries a stable business error code and its default message.
type Definition struct {
	Code    string
	Message string
}

// Auth errors.
var (
	Unauthorized      = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidToken      = Definition{Code: "INVALID_TOKEN", Message: "Invalid or expired token"}
	InvalidRequest    = Definition{Code: "INVALID_REQUEST", Message: "Invalid request"}
	TooManyRequests   = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests, slow down"}
	StoreUnavailable  = Definition{Code: "STORE_UNAVAILABLE", Message: "Storage is not available"}
)

// Flex time ledger errors.
var (
	FlexAtMax         = Definition{Code: "FLEX_AT_MAX", Message: "Already at maximum flex time for this week"}
	FlexEntryNotFound = Definition{Code: "FLEX_ENTRY_NOT_FOUND", Message: "Flex time entry not found"}
	NoWeekData        = Definition{Code: "NO_WEEK_DATA", Message: "No flex time data for this week"}
)

// Day preference errors.
var (
	VotingLocked       = Definition{Code: "VOTING_LOCKED", Message: "Day voting is locked for the weekend"}
	InvalidParticipant = Definition{Code: "INVALID_PARTICIPANT", Message: "Unknown participant"}
	InvalidDay         = Definition{Code: "INVALID_DAY", Message: "Day must be saturday or sunday"}
)

// Lookup provides error-code resolution for response mapping.
var Lookup = map[string]Definition{
	Unauthorized.Code:       Unauthorized,
	InvalidToken.Code:       InvalidToken,
	InvalidRequest.Code:     InvalidRequest,
	TooManyRequests.Code:    TooManyRequests,
	StoreUnavailable.Code:   StoreUnavailable,
	FlexAtMax.Code:          FlexAtMax,
	FlexEntryNotFound.Code:  FlexEntryNotFound,
	NoWeekData.Code:         NoWeekData,
	VotingLocked.Code:       VotingLocked,
	InvalidParticipant.Code: InvalidParticipant,
	InvalidDay.Code:         InvalidDay,
}

// Get returns the Definition for a code, or a generic one when unknown.
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
