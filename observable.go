package ripple

import "sync"

// Observable is the contract every reactive value implements.
//
// Get returns the current value. It is safe for concurrent readers and does
// not require a prior Subscribe.
//
// Subscribe registers fn to be called whenever the value changes and returns
// the guard controlling the registration. Dispatch happens on the goroutine
// performing the write unless a rate controller or mailbox sits in between.
type Observable[T any] interface {
	Get() T
	Subscribe(fn func(Context[T])) *Guard
}

// Settable is an Observable that can also be written.
type Settable[T any] interface {
	Observable[T]
	Set(value T)
}

// Updater is implemented by observables offering an atomic read-modify-write.
type Updater[T any] interface {
	Update(fn func(T) T)
}

// constant is an observable that never changes.
type constant[T any] struct {
	value T
}

// Constant returns an observable that always yields value and never notifies.
func Constant[T any](value T) Observable[T] {
	return constant[T]{value: value}
}

func (c constant[T]) Get() T { return c.value }

func (c constant[T]) Subscribe(func(Context[T])) *Guard { return NopGuard() }

// lazy computes its value once, on first read.
type lazy[T any] struct {
	once  sync.Once
	fn    func() T
	value T
}

// Lazy returns an observable that runs fn on the first Get and caches the
// result forever. It never notifies.
func Lazy[T any](fn func() T) Observable[T] {
	return &lazy[T]{fn: fn}
}

func (l *lazy[T]) Get() T {
	l.once.Do(func() {
		l.value = l.fn()
		l.fn = nil
	})
	return l.value
}

func (l *lazy[T]) Subscribe(func(Context[T])) *Guard { return NopGuard() }

// funcObservable adapts a pair of functions to Observable.
type funcObservable[T any] struct {
	get       func() T
	subscribe func(func(Context[T])) *Guard
}

// Func builds an Observable from a getter and a subscribe function. A nil
// subscribe yields an observable that never notifies.
func Func[T any](get func() T, subscribe func(func(Context[T])) *Guard) Observable[T] {
	return funcObservable[T]{get: get, subscribe: subscribe}
}

func (f funcObservable[T]) Get() T { return f.get() }

func (f funcObservable[T]) Subscribe(fn func(Context[T])) *Guard {
	if f.subscribe == nil {
		return NopGuard()
	}
	return f.subscribe(fn)
}
