package ripple

// Project exposes one field of a structured parent as its own writable
// observable. Reads reflect the parent's current field. Writes replace exactly
// that field in the parent and trigger the parent's notification; when the
// parent implements Updater the read-modify-write is atomic.
//
//	type Point struct{ X, Y int }
//	p := ripple.NewBinding(Point{})
//	x := ripple.Project(p,
//	    func(p Point) int { return p.X },
//	    func(p *Point, x int) { p.X = x },
//	)
func Project[P, F any](parent Settable[P], get func(P) F, set func(*P, F)) *Mapping[P, F] {
	return NewMapping(parent, get, func(s Settable[P], v F) {
		if u, ok := s.(Updater[P]); ok {
			u.Update(func(p P) P {
				set(&p, v)
				return p
			})
			return
		}
		p := s.Get()
		set(&p, v)
		s.Set(p)
	})
}
