package shipyard

// Runnable is the interface implemented by jobs submitted to the Scheduler.
type Runnable interface {
	Run()
}

// RunnableFunc adapts a function to Runnable.
type RunnableFunc func()

// Run calls f().
func (f RunnableFunc) Run() {
	f()
}
