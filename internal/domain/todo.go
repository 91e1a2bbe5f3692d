package domain

import "strings"

// Todo es un item de la coleccion de un usuario tal como lo devuelve el backend.
type Todo struct {
	ID          string `json:"id"`
	User        string `json:"user"`
	Date        string `json:"date"`
	Tag         string `json:"tag"`
	Description string `json:"description"`
}

// Day devuelve la parte de fecha (YYYY-MM-DD) de Date.
func (t Todo) Day() string {
	day, _, _ := strings.Cut(t.Date, "T")
	return day
}

// TodoInput es el cuerpo de POST /todos (un Todo sin id).
type TodoInput struct {
	User        string `json:"user"`
	Date        string `json:"date"`
	Tag         string `json:"tag"`
	Description string `json:"description"`
}

// TodoUpdate es el cuerpo de PUT /todos/{id}; solo tag y description son mutables.
type TodoUpdate struct {
	Tag         string `json:"tag"`
	Description string `json:"description"`
}
