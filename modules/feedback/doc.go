// Package feedback implements the feedback workflow.
//
// Service.Submit sanitizes and validates a Submission, stores it as a Record
// with status "new", and then emails the submitter a confirmation and the
// recipient an alert. Both emails are sent concurrently through a Mailer and
// fail independently; the outcome is written back to the record's delivery
// flags once, and never causes the submission itself to fail.
//
// Records are kept in a Storage: MongoStorage for production and
// MemoryStorage when no document store is configured. HTTPHandler mounts the
// JSON API:
//
//	POST   /                submit
//	GET    /                list recent (applicationName, featureName, type, minRating, maxRating, limit)
//	GET    /stats           aggregate (applicationName)
//	GET    /{id}            get one
//	PATCH  /{id}/status     update status
package feedback
