package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

func (a *app) readLine(label string) (string, error) {
	a.renderer.Print(label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readLineDefault muestra el valor actual y lo conserva si la linea queda vacia.
func (a *app) readLineDefault(label, current string) (string, error) {
	line, err := a.readLine(fmt.Sprintf("%s [%s]: ", label, current))
	if err != nil {
		return "", err
	}
	if line == "" {
		return current, nil
	}
	return line, nil
}

// readPassword no hace eco cuando stdin es una terminal.
func (a *app) readPassword(label string) (string, error) {
	f, ok := a.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return a.readLine(label)
	}
	a.renderer.Print(label)
	raw, err := term.ReadPassword(int(f.Fd()))
	a.renderer.Println("")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (a *app) askCredentials(email string) (string, string, error) {
	var err error
	if strings.TrimSpace(email) == "" {
		if email, err = a.readLine("Email: "); err != nil {
			return "", "", err
		}
	}
	password, err := a.readPassword("Password: ")
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}
