package condition

// Observer receives condition notifications. OnDeath fires at most once per
// System.
type Observer interface {
	OnHealthChanged(fraction float64)
	OnStaminaChanged(fraction float64)
	OnDamaged(amount float64)
	OnDeath()
}

// ObserverFuncs adapts optional callbacks to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	HealthChanged  func(fraction float64)
	StaminaChanged func(fraction float64)
	Damaged        func(amount float64)
	Death          func()
}

func (o ObserverFuncs) OnHealthChanged(fraction float64) {
	if o.HealthChanged != nil {
		o.HealthChanged(fraction)
	}
}

func (o ObserverFuncs) OnStaminaChanged(fraction float64) {
	if o.StaminaChanged != nil {
		o.StaminaChanged(fraction)
	}
}

func (o ObserverFuncs) OnDamaged(amount float64) {
	if o.Damaged != nil {
		o.Damaged(amount)
	}
}

func (o ObserverFuncs) OnDeath() {
	if o.Death != nil {
		o.Death()
	}
}
