// Package keys contiene los services del dominio license keys.
package keys

// Deps contiene las dependencias para crear los services de keys.
type Deps = KeyDeps

// Services agrupa todos los services del dominio keys.
type Services struct {
	Keys KeyService
}

// NewServices crea el agregador de services keys.
func NewServices(d Deps) Services {
	return Services{
		Keys: NewKeyService(d),
	}
}
