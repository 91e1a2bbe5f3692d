package domain

// Route identifica una vista de primer nivel.
type Route string

const (
	RouteRoot  Route = "/"
	RouteLogin Route = "/login"
	RouteTodos Route = "/todos"
)

// Navigator cambia la vista activa.
type Navigator interface {
	Navigate(route Route)
}

// NavigatorFunc adapta una funcion a Navigator.
type NavigatorFunc func(route Route)

func (f NavigatorFunc) Navigate(route Route) { f(route) }
