package domain

// Channel indica por donde se muestra un mensaje al usuario.
type Channel int

const (
	// ChannelInline es texto dentro del formulario o la lista.
	ChannelInline Channel = iota
	// ChannelToast es una notificacion transitoria.
	ChannelToast
	// ChannelAlert es un aviso bloqueante.
	ChannelAlert
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// Notice es un mensaje para el usuario emitido por un flujo.
type Notice struct {
	Channel Channel
	Level   Level
	Message string
}

// Notifier recibe los mensajes de los flujos.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapta una funcion a Notifier.
type NotifierFunc func(n Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

// DiscardNotifier ignora todos los mensajes.
var DiscardNotifier Notifier = discardNotifier{}
