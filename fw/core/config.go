package core

import "time"

// Config is the top-level YaNFD configuration file schema, read via
// toolutils.ReadYaml from the path given on the command line.
type Config struct {
	Core struct {
		LogLevel     string `yaml:"log_level"`
		CpuProfile   string `yaml:"cpu_profile"`
		MemProfile   string `yaml:"mem_profile"`
		BlockProfile string `yaml:"block_profile"`
		BaseDir      string `yaml:"-"`
	} `yaml:"core"`

	Fw struct {
		Threads         int    `yaml:"threads"`
		Queue           int    `yaml:"queue_size"`
		DefaultStrategy string `yaml:"default_strategy"`
	} `yaml:"fw"`

	Tables struct {
		ContentStore struct {
			Capacity    int    `yaml:"capacity"`
			Policy      string `yaml:"replacement_policy"`
			PersistDir  string `yaml:"persist_dir"`
		} `yaml:"content_store"`
		DeadNonceList struct {
			Lifetime time.Duration `yaml:"lifetime"`
		} `yaml:"dead_nonce_list"`
		// NetworkRegion is the set of names this node considers itself
		// within, consulted when admitting an Interest carrying a
		// forwarding hint.
		NetworkRegion []string `yaml:"network_region"`
	} `yaml:"tables"`

	Faces struct {
		Udp struct {
			Enabled          bool   `yaml:"enabled"`
			Port             uint16 `yaml:"port_unicast"`
			PortMcast        uint16 `yaml:"port_multicast"`
			Mcast4           string `yaml:"multicast_address_ipv4"`
			Mcast6           string `yaml:"multicast_address_ipv6"`
			DefaultMtu       int    `yaml:"default_mtu"`
			Lifetime         time.Duration `yaml:"lifetime"`
		} `yaml:"udp"`
		Tcp struct {
			Enabled bool   `yaml:"enabled"`
			Port    uint16 `yaml:"port_unicast"`
		} `yaml:"tcp"`
		WebSocket struct {
			Enabled bool   `yaml:"enabled"`
			Port    uint16 `yaml:"port"`
		} `yaml:"websocket"`
		Unix struct {
			Enabled bool   `yaml:"enabled"`
			Socket  string `yaml:"socket_path"`
		} `yaml:"unix"`
		// DefaultIdlePeriod is how long an NDNLP link service lets a
		// partial reassembly group sit idle before evicting it.
		DefaultIdlePeriod time.Duration `yaml:"default_idle_period"`
	} `yaml:"faces"`

	Mgmt struct {
		Disabled bool `yaml:"disabled"`
	} `yaml:"mgmt"`
}

// DefaultConfig returns a Config populated with the defaults every
// subsystem falls back to when the configuration file leaves a field
// unset.
func DefaultConfig() *Config {
	c := &Config{}
	c.Core.LogLevel = "INFO"
	c.Fw.Threads = 1
	c.Fw.Queue = 1024
	c.Fw.DefaultStrategy = "/localhost/nfd/strategy/best-route"
	c.Tables.ContentStore.Capacity = 65536
	c.Tables.ContentStore.Policy = "priority-fifo"
	c.Tables.DeadNonceList.Lifetime = 6 * time.Second
	c.Faces.Udp.Enabled = true
	c.Faces.Udp.Port = 6363
	c.Faces.Udp.PortMcast = 56363
	c.Faces.Udp.Mcast4 = "224.0.23.170"
	c.Faces.Udp.Mcast6 = "ff02::1234"
	c.Faces.Udp.DefaultMtu = 8800
	c.Faces.Udp.Lifetime = 600 * time.Second
	c.Faces.Tcp.Enabled = true
	c.Faces.Tcp.Port = 6363
	c.Faces.WebSocket.Port = 9696
	c.Faces.Unix.Enabled = true
	c.Faces.Unix.Socket = "/run/ndnd/ndnd.sock"
	c.Faces.DefaultIdlePeriod = 100 * time.Millisecond
	return c
}
