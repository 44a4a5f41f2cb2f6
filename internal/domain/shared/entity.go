package shared

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() int64
}

// BaseEntity provides the surrogate key every stored entity carries
type BaseEntity struct {
	ID int64
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() int64 {
	return e.ID
}

// IsNew reports whether the entity was never persisted
func (e *BaseEntity) IsNew() bool {
	return e.ID == 0
}
