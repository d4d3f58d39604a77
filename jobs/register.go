package jobs

import (
	"github.com/openestate/searchcache"
	"github.com/openestate/searchcache/media"
	"github.com/openestate/searchcache/search"
	"github.com/openestate/searchcache/tasks"
)

// Deps are the collaborators the handlers delegate to. Nil entries simply
// leave the corresponding task unregistered.
type Deps struct {
	Executor search.Executor
	Images   media.ImageStore
	Notifier Notifier
	Logger   searchcache.Logger
}

// RegisterAll binds every available handler on the worker by task name.
func RegisterAll(w *tasks.Worker, d Deps) {
	if d.Executor != nil {
		w.Register(searchcache.TaskWarmSearch, WarmSearch(d.Executor, d.Logger))
	}
	if d.Images != nil {
		w.Register(TaskProcessImage, IngestImage(d.Images, d.Logger))
	}
	if d.Notifier != nil {
		w.Register(TaskDrainNotifications, DrainNotifications(d.Notifier, d.Logger))
	}
}
