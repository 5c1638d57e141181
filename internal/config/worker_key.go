package config

type WorkerKeyStruct struct {
	PersistProgressQueue string
	PersistSessionsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistProgressQueue: "persist_progress_queue",
	PersistSessionsQueue: "persist_sessions_queue",
}
