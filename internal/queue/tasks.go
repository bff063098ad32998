package queue

const TypeWebhookDeliver = "webhook:deliver"

// Catalog and course mutation events fanned out to subscribed webhooks.
const (
	EventCatalogCreated  = "catalog.created"
	EventCatalogUpdated  = "catalog.updated"
	EventCatalogDeleted  = "catalog.deleted"
	EventVersionAdded    = "catalog.version_added"
	EventVersionRemoved  = "catalog.version_removed"
	EventCourseCreated   = "course.created"
	EventCourseUpdated   = "course.updated"
	EventCourseDeleted   = "course.deleted"
	EventPackageLinked   = "course.package_added"
	EventPackageUnlinked = "course.package_removed"
)

type WebhookDeliverPayload struct {
	WebhookID string `json:"webhook_id"`
	URL       string `json:"url"`
	Secret    string `json:"secret"`
	Event     string `json:"event"`
	Payload   string `json:"payload"` // JSON string
}
