package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"todo-client/internal/domain"
)

const (
	msgFetchFailed  = "Failed to fetch todos"
	msgSaveFailed   = "Error saving todo"
	msgUpdateFailed = "Failed to update todo"
	msgDeleteFailed = "Error deleting todo"
)

// ErrTodoNotFound se devuelve al editar un id que no esta en la lista visible.
var ErrTodoNotFound = errors.New("todo not found")

// AddPrompt es el estado del formulario de alta.
type AddPrompt struct {
	Open        bool
	Tag         string
	Description string
}

// EditPrompt es el estado del formulario de edicion.
type EditPrompt struct {
	Open        bool
	ID          string
	Tag         string
	Description string
}

// TodoManager mantiene la lista visible de todos del usuario actual.
// Cada mutacion exitosa dispara un List completo; solo se aplica la
// respuesta del List emitido mas recientemente.
type TodoManager struct {
	api      TodoAPI
	identity IdentitySource
	notifier domain.Notifier
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	items   []domain.Todo
	errMsg  string
	listSeq uint64
	add     AddPrompt
	edit    EditPrompt
}

func NewTodoManager(todoAPI TodoAPI, identity IdentitySource, notifier domain.Notifier, logger *zap.Logger) *TodoManager {
	if notifier == nil {
		notifier = domain.DiscardNotifier
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoManager{
		api:      todoAPI,
		identity: identity,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Mount carga la lista de la identidad actual.
func (m *TodoManager) Mount(ctx context.Context) error {
	return m.resync(ctx)
}

// List reemplaza la lista con la respuesta del backend. Si falla, la lista
// queda como estaba y se muestra un mensaje inline. Respuestas de llamadas
// superadas por otra mas reciente se descartan.
func (m *TodoManager) List(ctx context.Context, email string) error {
	m.mu.Lock()
	m.listSeq++
	seq := m.listSeq
	m.mu.Unlock()

	todos, err := m.api.ListTodos(ctx, email)

	m.mu.Lock()
	if seq != m.listSeq {
		m.mu.Unlock()
		m.logger.Debug("stale list response dropped", zap.Uint64("seq", seq))
		return err
	}
	if err != nil {
		m.errMsg = msgFetchFailed
		m.mu.Unlock()
		m.logger.Warn("list todos failed", zap.String("email", email), zap.Error(err))
		m.notifier.Notify(domain.Notice{Channel: domain.ChannelInline, Level: domain.LevelError, Message: msgFetchFailed})
		return err
	}
	m.items = todos
	m.errMsg = ""
	m.mu.Unlock()
	m.logger.Debug("todos loaded", zap.Int("count", len(todos)))
	return nil
}

// Create da de alta un todo con user y fecha derivados de la sesion.
// Si falla, el formulario queda abierto con los campos intactos.
func (m *TodoManager) Create(ctx context.Context, tag, description string) error {
	identity, err := m.identity.CurrentIdentity(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.add.Tag = tag
	m.add.Description = description
	m.mu.Unlock()

	in := domain.TodoInput{
		User:        identity.Email,
		Date:        m.now().Format("2006-01-02"),
		Tag:         tag,
		Description: description,
	}
	if err := m.api.CreateTodo(ctx, in); err != nil {
		m.logger.Warn("create todo failed", zap.Error(err))
		m.alert(msgSaveFailed)
		return err
	}

	m.mu.Lock()
	m.add = AddPrompt{}
	m.mu.Unlock()
	return m.List(ctx, identity.Email)
}

// Update reemplaza tag y description. El formulario de edicion se cierra
// antes de conocer el resultado.
func (m *TodoManager) Update(ctx context.Context, id string, update domain.TodoUpdate) error {
	m.mu.Lock()
	m.edit = EditPrompt{}
	m.mu.Unlock()

	if err := m.api.UpdateTodo(ctx, id, update); err != nil {
		m.logger.Warn("update todo failed", zap.String("id", id), zap.Error(err))
		m.alert(msgUpdateFailed)
		return err
	}
	return m.resync(ctx)
}

func (m *TodoManager) Remove(ctx context.Context, id string) error {
	if err := m.api.DeleteTodo(ctx, id); err != nil {
		m.logger.Warn("delete todo failed", zap.String("id", id), zap.Error(err))
		m.alert(msgDeleteFailed)
		return err
	}
	return m.resync(ctx)
}

func (m *TodoManager) OpenAdd() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add.Open = true
}

// CancelAdd cierra el formulario sin borrar lo escrito.
func (m *TodoManager) CancelAdd() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add.Open = false
}

func (m *TodoManager) SetAddFields(tag, description string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add.Tag = tag
	m.add.Description = description
}

// SubmitAdd envia lo que hay en el formulario de alta.
func (m *TodoManager) SubmitAdd(ctx context.Context) error {
	m.mu.Lock()
	tag, description := m.add.Tag, m.add.Description
	m.mu.Unlock()
	return m.Create(ctx, tag, description)
}

func (m *TodoManager) AddPrompt() AddPrompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.add
}

// OpenEdit abre el formulario de edicion con los valores actuales del item.
func (m *TodoManager) OpenEdit(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.items {
		if t.ID == id {
			m.edit = EditPrompt{Open: true, ID: t.ID, Tag: t.Tag, Description: t.Description}
			return nil
		}
	}
	return ErrTodoNotFound
}

func (m *TodoManager) SetEditFields(tag, description string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edit.Tag = tag
	m.edit.Description = description
}

// SaveEdit envia el formulario de edicion abierto.
func (m *TodoManager) SaveEdit(ctx context.Context) error {
	m.mu.Lock()
	edit := m.edit
	m.mu.Unlock()
	if !edit.Open {
		return ErrTodoNotFound
	}
	return m.Update(ctx, edit.ID, domain.TodoUpdate{Tag: edit.Tag, Description: edit.Description})
}

func (m *TodoManager) CloseEdit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edit = EditPrompt{}
}

func (m *TodoManager) EditPrompt() EditPrompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.edit
}

// Items devuelve una copia de la lista visible, en el orden del backend.
func (m *TodoManager) Items() []domain.Todo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) == 0 {
		return nil
	}
	out := make([]domain.Todo, len(m.items))
	copy(out, m.items)
	return out
}

// Empty es verdadero tanto para una respuesta null como para [].
func (m *TodoManager) Empty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items) == 0
}

// Error devuelve el ultimo mensaje inline de carga.
func (m *TodoManager) Error() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errMsg
}

func (m *TodoManager) resync(ctx context.Context) error {
	identity, err := m.identity.CurrentIdentity(ctx)
	if err != nil {
		return err
	}
	return m.List(ctx, identity.Email)
}

func (m *TodoManager) alert(msg string) {
	m.notifier.Notify(domain.Notice{Channel: domain.ChannelAlert, Level: domain.LevelError, Message: msg})
}
