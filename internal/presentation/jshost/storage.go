//go:build js && wasm

package jshost

import (
	"syscall/js"

	"github.com/magnetomarketing/magneto-web/internal/domain/widget"
)

// SessionStorage is a widget.Store over window.sessionStorage. Private
// browsing modes throw on access, in which case it degrades to memory.
type SessionStorage struct {
	storage  js.Value
	fallback *widget.MemoryStore
}

// NewSessionStorage checks sessionStorage access once.
func NewSessionStorage() *SessionStorage {
	s := &SessionStorage{storage: js.Undefined(), fallback: widget.NewMemoryStore()}
	_ = call(func() {
		st := js.Global().Get("sessionStorage")
		if st.IsUndefined() || st.IsNull() {
			return
		}
		st.Call("getItem", "__magneto_check")
		s.storage = st
	})
	return s
}

func (s *SessionStorage) Get(key string) (string, bool) {
	if s.storage.IsUndefined() {
		return s.fallback.Get(key)
	}
	var v js.Value
	if err := call(func() { v = s.storage.Call("getItem", key) }); err != nil || v.IsNull() {
		return s.fallback.Get(key)
	}
	return v.String(), true
}

func (s *SessionStorage) Set(key, value string) {
	s.fallback.Set(key, value)
	if s.storage.IsUndefined() {
		return
	}
	_ = call(func() { s.storage.Call("setItem", key, value) })
}
