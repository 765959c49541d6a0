package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Operational
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"

	// Catalog and boot configuration
	RouteProducts          = "/api/products"
	RouteProductPreference = "/api/products/preference"
	RouteShellConfig       = "/api/shell-config"

	// Sign-in API (sign-in origin only)
	RouteAuthSignIn = "/api/auth/signin"
	RouteAuthVerify = "/api/auth/verify"
	RouteAuthSignUp = "/api/auth/signup"

	// Onboarding API (sign-in origin only)
	RouteOnboardingClassification = "/api/onboarding/classification"
	RouteOnboardingComplete       = "/api/onboarding/complete"
)
