//go:build js && wasm

package browser

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/berhot/session-handoff/boot"
)

// Navigator drives window.history and window.location.
type Navigator struct{}

var _ boot.Navigator = Navigator{}

func (Navigator) ReplaceURL(_ context.Context, url string) (err error) {
	defer recoverJS(&err)
	js.Global().Get("history").Call("replaceState", js.Null(), "", url)
	return nil
}

func (Navigator) Assign(_ context.Context, url string) (err error) {
	defer recoverJS(&err)
	js.Global().Get("location").Call("assign", url)
	return nil
}

// CurrentURL returns location.href.
func CurrentURL() string {
	return js.Global().Get("location").Get("href").String()
}

func recoverJS(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("browser: %v", r)
	}
}
