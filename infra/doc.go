// Package infra contains technical adapters such as the history file
// parser, the batch runner, the MQTT forecast publisher and metrics
// exporters. These packages should depend only on the interfaces defined
// in the core packages.
package infra
