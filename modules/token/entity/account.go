package entity

// Account tracks per-account replay protection. Nonce is the number of
// operations applied for the account; the next operation must carry Nonce+1.
type Account struct {
	Account string
	Nonce   uint64
}
