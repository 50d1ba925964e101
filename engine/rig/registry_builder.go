package rig

// RegistryBuilderOption is a functional option for configuring a Registry.
// Use the With* functions to create options that are applied directly to the registry instance.
type RegistryBuilderOption func(*registry)

// WithRefreshWorkers sets the worker count of the batched refresh pool.
// Values < 1 are ignored; the default is NumCPU-1 (minimum 1).
//
// Parameters:
//   - workers: number of pooled refresh workers
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithRefreshWorkers(workers int) RegistryBuilderOption {
	return func(r *registry) {
		if workers < 1 {
			return
		}
		r.refreshWorkers = workers
	}
}
