package ripple

import "fmt"

// Any erases the value type of o so it can be passed to Sprintf.
func Any[T any](o Observable[T]) Observable[any] {
	return Map(o, func(v T) any { return v })
}

// formatted renders a template over observable arguments.
type formatted struct {
	format string
	args   []Observable[any]
}

// Sprintf returns a read-only observable of fmt.Sprintf(format, values...),
// where values are the current values of args. Get re-renders by reading
// every argument; watchers are notified whenever any argument changes.
//
//	name := ripple.NewBinding("world")
//	count := ripple.NewBinding(3)
//	msg := ripple.Sprintf("hello %s (%d)", ripple.Any(name), ripple.Any(count))
func Sprintf(format string, args ...Observable[any]) Observable[string] {
	return &formatted{format: format, args: args}
}

func (f *formatted) Get() string {
	return f.render(-1, nil)
}

// render formats the arguments, using value in place of argument i.
func (f *formatted) render(i int, value any) string {
	values := make([]any, len(f.args))
	for j, arg := range f.args {
		if j == i {
			values[j] = value
			continue
		}
		values[j] = arg.Get()
	}
	return fmt.Sprintf(f.format, values...)
}

func (f *formatted) Subscribe(fn func(Context[string])) *Guard {
	guards := make([]*Guard, len(f.args))
	for i, arg := range f.args {
		guards[i] = arg.Subscribe(func(c Context[any]) {
			fn(Context[string]{Value: f.render(i, c.Value), Metadata: c.Metadata})
		})
	}
	return JoinGuards(guards...)
}
