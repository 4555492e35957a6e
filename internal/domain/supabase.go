package domain

type SupabaseClient interface {
	Initialize() error
	IsConfigured() bool
	ValidateToken(token string) (*SupabaseUser, error)
}
