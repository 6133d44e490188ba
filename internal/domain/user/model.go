package user

// Principal is the verified identity attached to a request. The account
// service is a black box; this is all the engine ever learns about a caller.
type Principal struct {
	UserID  string
	Email   string
	IsAdmin bool
}
