// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free of
// ORM concerns. Each model carries a FromDomain constructor and a ToDomain mapper.
//
// Tables:
//   - users: identity records keyed by the upstream provider's id
//   - applications: a user's private job applications
//   - submissions: public experience reports
package models
