package topics

const (
	// Espelhamento remoto (outbox)
	RemoteMirror      = "remote_mirror"
	RemoteMirrorQueue = "remote_mirror_worker"

	// DLQs
	RemoteMirrorDLQ = "remote_mirror_dlq"
)

// RoutingKey monta a routing key AMQP de uma tarefa, ex.: "mirror.bets.upsert"
func RoutingKey(collection, op string) string {
	return "mirror." + collection + "." + op
}
