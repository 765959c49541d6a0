//go:build js && wasm

// Package browser adapts the page's Web APIs to the storage and navigation
// interfaces used by the boot sequencer.
package browser

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/berhot/session-handoff/storage"
)

// LocalStorage is window.localStorage. Private browsing modes and disabled
// storage make the property itself throw, so every call re-resolves it.
type LocalStorage struct{}

var _ storage.Backend = LocalStorage{}

func (LocalStorage) GetItem(_ context.Context, key string) (value string, ok bool, err error) {
	err = call(func() {
		v := localStorage().Call("getItem", key)
		if v.IsNull() || v.IsUndefined() {
			return
		}
		value, ok = v.String(), true
	})
	return value, ok, err
}

func (LocalStorage) SetItem(_ context.Context, key, value string) error {
	return call(func() {
		localStorage().Call("setItem", key, value)
	})
}

func (LocalStorage) RemoveItem(_ context.Context, key string) error {
	return call(func() {
		localStorage().Call("removeItem", key)
	})
}

func localStorage() js.Value {
	ls := js.Global().Get("localStorage")
	if ls.IsNull() || ls.IsUndefined() {
		panic("localStorage is not available")
	}
	return ls
}

// call converts a thrown JS exception into storage.ErrUnavailable.
func call(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", storage.ErrUnavailable, r)
		}
	}()
	fn()
	return nil
}
