package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.ProcessDocumentActivity)
	w.RegisterActivity(a.AssembleUploadActivity)
	w.RegisterActivity(a.ReprocessDocumentActivity)
	w.RegisterActivity(a.ProcessKnowledgeEntryActivity)
}
