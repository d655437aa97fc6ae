package constants

const (
	AppName = "sankalp"
	Version = "v0.1.0"

	// DateFormat is the standard calendar-day format used throughout the
	// application (YYYY-MM-DD). Day keys in this format double as equality
	// keys for completion lookups.
	DateFormat = "2006-01-02"

	// DefaultEndpoint is the GraphQL endpoint of the sankalp backend.
	DefaultEndpoint = "http://localhost:8080/graphql"

	// DefaultStorePath is the default local store location. A .json suffix
	// selects the JSON backend instead of SQLite.
	DefaultStorePath = "~/.config/sankalp/sankalp.db"

	// KeyringAccount is the keyring account name for saved login credentials.
	KeyringAccount = "saved-login"
)
