// Package api handles incoming HTTP requests, request validation and response
// formatting for the task API. Handlers translate HTTP concerns into
// service.TaskService calls and wrap results in the shared response envelope.
package api
