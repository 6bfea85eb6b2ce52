package model

// Match is one fixture on the slate. Labels are display-only; the engine
// only relies on the slate order.
type Match struct {
	Home string `json:"home"`
	Away string `json:"away"`
}
