// AngelaMos | 2026
// seed.go

package subscription

func ptr[T any](v T) *T { return &v }

// Seed mirrors the plans installed by the schema migration.
var Seed = []Subscription{
	{ID: 1, Key: "trial", Label: "Free Trial", Summary: ptr("Try the platform as a CFI for 14 days."), Price: ptr(0.0)},
	{ID: 2, Key: "single", Label: "CFI", Summary: ptr("Manage your syllabi, add students and track their progress."), Price: ptr(9.0)},
	{ID: 3, Key: "school", Label: "Flight School", Summary: ptr("Manage multiple CFIs and students."), Price: ptr(49.0)},
	{ID: 4, Key: "enterprise", Label: "Enterprise", Summary: ptr("Manage multiple schools, their staff and students."), RequireSales: true},
	{ID: 5, Key: KeyGlobal, Label: "Global"},
}

var SeedFeatures = []Feature{
	{ID: 1, SubscriptionID: 1, Label: "14 day free trial"},
	{ID: 2, SubscriptionID: 1, Label: "No credit card required"},
	{ID: 3, SubscriptionID: 1, Label: "Solo CFI plan"},
	{ID: 4, SubscriptionID: 2, Label: "1 instructor"},
	{ID: 5, SubscriptionID: 2, Label: "Up to 10 students"},
	{ID: 6, SubscriptionID: 2, Label: "Lesson logging"},
	{ID: 7, SubscriptionID: 2, Label: "Printable progress"},
	{ID: 8, SubscriptionID: 3, Label: "Up to 10 CFIs"},
	{ID: 9, SubscriptionID: 3, Label: "Unlimited students"},
	{ID: 10, SubscriptionID: 3, Label: "Syllabus versioning"},
	{ID: 11, SubscriptionID: 3, Label: "Pass/fail analytics"},
	{ID: 12, SubscriptionID: 4, Label: "Audit exports"},
	{ID: 13, SubscriptionID: 4, Label: "Priority support"},
	{ID: 14, SubscriptionID: 4, Label: "Onboarding help"},
}
