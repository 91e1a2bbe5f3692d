package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestDecodeIdentity(t *testing.T) {
	token := signToken(t, Claims{UserID: "u1", Email: "a@x.com", Verified: true})

	identity, err := DecodeIdentity(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if identity.Email != "a@x.com" || !identity.Verified || identity.UserID != "u1" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestDecodeIdentity_IgnoresSignatureAndExpiry(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	token := signToken(t, Claims{
		Email: "old@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(past),
		},
	})

	identity, err := DecodeIdentity(token)
	if err != nil {
		t.Fatalf("expired token should still decode, got %v", err)
	}
	if identity.Email != "old@x.com" || identity.Verified {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestDecodeIdentity_Errors(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "empty", token: "  ", want: ErrMissingCredential},
		{name: "garbage", token: "not-a-jwt", want: ErrTokenDecode},
		{name: "no email", token: signToken(t, Claims{UserID: "u1"}), want: ErrTokenDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeIdentity(tt.token); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestStore_SaveIdentityClear(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryTokenStore(), nil)

	if _, err := store.CurrentIdentity(ctx); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential before login, got %v", err)
	}

	token := signToken(t, Claims{Email: "a@x.com"})
	if err := store.Save(ctx, token); err != nil {
		t.Fatalf("save: %v", err)
	}
	identity, err := store.CurrentIdentity(ctx)
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	if identity.Email != "a@x.com" {
		t.Fatalf("unexpected email %q", identity.Email)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Token(ctx); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential after clear, got %v", err)
	}
}

func TestStore_RejectsEmptyToken(t *testing.T) {
	store := NewStore(nil, nil)
	if err := store.Save(context.Background(), ""); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestStore_UnreadableToken(t *testing.T) {
	ctx := context.Background()
	tokens := NewMemoryTokenStore()
	_ = tokens.Save(ctx, "abc.def")
	store := NewStore(tokens, nil)

	if _, err := store.CurrentIdentity(ctx); !errors.Is(err, ErrTokenDecode) {
		t.Fatalf("expected ErrTokenDecode, got %v", err)
	}
}

func TestFileTokenStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	first := NewFileTokenStore(path, "jwt")
	if _, err := first.Load(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken on missing file, got %v", err)
	}
	if err := first.Save(ctx, "tok-1"); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := NewFileTokenStore(path, "jwt")
	token, err := second.Load(ctx)
	if err != nil || token != "tok-1" {
		t.Fatalf("expected tok-1,nil; got %q,%v", token, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	if err := second.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := first.Load(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken after clear, got %v", err)
	}
}

func TestFileTokenStore_KeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"theme":"dark"}`), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	store := NewFileTokenStore(path, "")
	if err := store.Save(ctx, "tok"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(data); got != "{\n  \"theme\": \"dark\"\n}" {
		t.Fatalf("unexpected file contents %q", got)
	}
}

func TestFileTokenStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	store := NewFileTokenStore(path, "jwt")
	if _, err := store.Load(context.Background()); err == nil || errors.Is(err, ErrNoToken) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

type mockRedisKVClient struct {
	values map[string]string
	getErr error
	setErr error
	delErr error
}

func (m *mockRedisKVClient) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	val, ok := m.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (m *mockRedisKVClient) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	m.values[key] = value.(string)
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisKVClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if m.delErr != nil {
		cmd.SetErr(m.delErr)
		return cmd
	}
	for _, k := range keys {
		delete(m.values, k)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func TestRedisTokenStore_Basics(t *testing.T) {
	ctx := context.Background()
	mock := &mockRedisKVClient{values: make(map[string]string)}
	store := &redisTokenStore{client: mock, key: "todo:session:jwt"}

	if _, err := store.Load(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if err := store.Save(ctx, "tok"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if mock.values["todo:session:jwt"] != "tok" {
		t.Fatalf("unexpected redis contents: %+v", mock.values)
	}
	token, err := store.Load(ctx)
	if err != nil || token != "tok" {
		t.Fatalf("expected tok,nil; got %q,%v", token, err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken after clear, got %v", err)
	}
}

func TestRedisTokenStore_ErrorPaths(t *testing.T) {
	ctx := context.Background()
	mock := &mockRedisKVClient{
		values: make(map[string]string),
		getErr: errors.New("get failed"),
		setErr: errors.New("set failed"),
		delErr: errors.New("del failed"),
	}
	store := &redisTokenStore{client: mock, key: "todo:session:jwt"}

	if _, err := store.Load(ctx); err == nil || errors.Is(err, ErrNoToken) {
		t.Fatalf("expected get error, got %v", err)
	}
	if err := store.Save(ctx, "tok"); err == nil {
		t.Fatalf("expected set error")
	}
	if err := store.Clear(ctx); err == nil {
		t.Fatalf("expected del error")
	}

	facade := NewStore(store, nil)
	if _, err := facade.Token(ctx); err == nil || errors.Is(err, ErrMissingCredential) {
		t.Fatalf("backend failure must not look like a logged-out session, got %v", err)
	}
}

func TestNewRedisTokenStore_NilClient(t *testing.T) {
	if store := NewRedisTokenStore(nil, "jwt"); store != nil {
		t.Fatalf("expected nil store for nil client")
	}
}
