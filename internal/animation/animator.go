package animation

// Animator composes a domain, an ease and a range into one value per sample.
type Animator struct {
	folding bool
}

// NewAnimator returns an animator that starts out folding.
func NewAnimator() *Animator {
	return &Animator{folding: true}
}

// Progress is the eased progress of d, folded back past the midpoint when
// unfold is set. On the first sample after changing direction the boundary
// value is returned once.
func (a *Animator) Progress(d Domain, e Ease, unfold bool) float64 {
	p := Percent(d)
	if e != nil {
		p = e.Calc(p)
	}
	if !unfold {
		return p
	}
	if p <= 0.5 {
		if a.folding {
			p *= 2
		} else {
			p = 0
		}
		a.folding = true
		return p
	}
	if a.folding {
		p = 1
	} else {
		p = (1 - p) * 2
	}
	a.folding = false
	return p
}

// Held reports whether the domain is paused or complete, in which case the
// range's last value should be used instead of a new sample.
func Held(d Domain) bool {
	s := d.State()
	return s == Paused || s == Complete
}
