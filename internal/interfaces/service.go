package interfaces

// Service defines the methods every interface exposing the daemon's app
// services must implement.
type Service interface {
	Start() error
	Stop()
}
