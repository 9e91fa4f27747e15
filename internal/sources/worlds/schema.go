package worlds

// File represents the top-level structure of worlds.yaml
type File struct {
	Datacenters []DatacenterProps `yaml:"datacenters"`
}

// DatacenterProps groups the worlds hosted in one datacenter.
type DatacenterProps struct {
	Name   string   `yaml:"name"`
	Region string   `yaml:"region,omitempty"`
	Worlds []string `yaml:"worlds"`
}
