package core

// Environment is the deployment environment of the booking agent. It mainly
// drives logger setup: production logs at info level, everything else gets
// the console writer at debug.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether the environment is production.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment normalises a raw value into a known environment. Unknown
// values fall back to Development so local runs never fail on this.
func ParseEnvironment(v string) Environment {
	switch Environment(v) {
	case Production, Staging, Testing:
		return Environment(v)
	default:
		return Development
	}
}
