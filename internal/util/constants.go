package util

// ContextUserKey is the gin context key the auth middleware stores claims under.
const ContextUserKey = "user"

// WorkflowChannel is the redis channel workflow transitions are published on.
const WorkflowChannel = "specialty:workflow"
