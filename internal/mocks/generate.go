// Package mocks provides mock implementations for testing the verification flow.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	idp := mocks.NewMockIdentityProvider(ctrl)
//	idp.EXPECT().ExchangeCode(gomock.Any(), "code").Return("token", nil)
package mocks

// Generate mock for IdentityProvider interface from internal/ports.
// This creates MockIdentityProvider with methods:
// AuthCodeURL, ExchangeCode, FetchProfile
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=identity_provider_mock.go github.com/uchiverify/uchiverify/internal/ports IdentityProvider

// Generate mock for SessionStore interface from internal/ports.
// This creates MockSessionStore with methods:
// Create, Consume
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/uchiverify/uchiverify/internal/ports SessionStore

// Generate mock for RoleAPI interface from internal/ports.
// This creates MockRoleAPI with methods:
// ListRoles, CreateRole, AddMemberRole
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=role_api_mock.go github.com/uchiverify/uchiverify/internal/ports RoleAPI
