package domain

// Identity son los claims del token que la UI usa para mostrar y enrutar.
// No sirven para autorizar: el backend valida el token.
type Identity struct {
	UserID   string
	Email    string
	Verified bool
}
