package admin

// OptimisticMutation generalizes the back-office update pattern: apply
// the change locally, issue the remote request, roll back on failure.
// Apply and Rollback run synchronously around Remote.
type OptimisticMutation[T any] struct {
	Apply    func() T     // make the local change; returns rollback state
	Remote   func() error // the remote call that makes it real
	Rollback func(T)      // undo the local change with the saved state
}

// Run executes the mutation. On remote failure the local change is
// rolled back and the remote error returned.
func (m OptimisticMutation[T]) Run() error {
	saved := m.Apply()
	if err := m.Remote(); err != nil {
		if m.Rollback != nil {
			m.Rollback(saved)
		}
		return err
	}
	return nil
}
