package orion

import "fmt"

// Handle panics if err is set. Use it for errors that can only be caused
// by a programming mistake.
func Handle(err error, desc string, args ...any) {
	if err != nil {
		text := fmt.Sprintf(desc, args...)
		panic(text + ": " + err.Error())
	}
}
