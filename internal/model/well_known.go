package model

// WellKnown is served under /.well-known/service.json so that deployments
// can tell instances apart.
type WellKnown struct {
	Version    string `json:"version"`
	InstanceID string `json:"instanceId"`
	HelloName  string `json:"helloName"`
}
