package usecase

import "time"

// Test-only bridge so external test files can reach unexported knobs.
const (
	OrderCodeMinForTest = orderCodeMin
	OrderCodeMaxForTest = orderCodeMax
)

// SetNewCodeForTest overrides the order code generator.
func (u *OrderUseCase) SetNewCodeForTest(f func() int64) { u.newCode = f }

// SetNowForTest overrides the clock.
func (u *OrderUseCase) SetNowForTest(f func() time.Time) { u.now = f }
