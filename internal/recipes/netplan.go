package recipes

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type netplanFile struct {
	Network netplanNetwork `yaml:"network"`
}

type netplanNetwork struct {
	Version   int                        `yaml:"version"`
	Renderer  string                     `yaml:"renderer,omitempty"`
	Ethernets map[string]netplanEthernet `yaml:"ethernets"`
}

type netplanEthernet struct {
	DHCP4       bool                `yaml:"dhcp4"`
	Addresses   []string            `yaml:"addresses,omitempty"`
	Routes      []netplanRoute      `yaml:"routes,omitempty"`
	Nameservers *netplanNameservers `yaml:"nameservers,omitempty"`
}

type netplanRoute struct {
	To  string `yaml:"to"`
	Via string `yaml:"via"`
}

type netplanNameservers struct {
	Addresses []string `yaml:"addresses"`
}

// NetplanStatic renders a netplan file giving iface a static address, a
// default route through gateway and the listed DNS servers.
func NetplanStatic(iface, address, gateway string, dns []string) ([]byte, error) {
	eth := netplanEthernet{
		DHCP4:     false,
		Addresses: []string{address},
	}
	if gateway != "" {
		eth.Routes = []netplanRoute{{To: "default", Via: gateway}}
	}
	if len(dns) > 0 {
		eth.Nameservers = &netplanNameservers{Addresses: dns}
	}
	doc := netplanFile{Network: netplanNetwork{
		Version:   2,
		Renderer:  "networkd",
		Ethernets: map[string]netplanEthernet{iface: eth},
	}}
	return encodeYAML(&doc)
}

// netplanConfig is a parsed netplan file that configures one interface.
type netplanConfig struct {
	Path string
	doc  *yaml.Node
	eth  *yaml.Node
}

// findNetplanConfig returns the file in dir whose network.ethernets entry
// for iface netplan applies last, that is the last one in name order. It
// returns nil when no file configures iface.
func findNetplanConfig(dir, iface string) (*netplanConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			continue
		}
		if len(doc.Content) == 0 {
			continue
		}
		network := findMapValue(doc.Content[0], "network")
		ethernets := findMapValue(network, "ethernets")
		if eth := findMapValue(ethernets, iface); eth != nil && eth.Kind == yaml.MappingNode {
			return &netplanConfig{Path: path, doc: &doc, eth: eth}, nil
		}
	}
	return nil, nil
}

// findMapValue returns the value node for key in a mapping node.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// DHCP reports whether the interface has dhcp4 enabled.
func (c *netplanConfig) DHCP() bool {
	v := findMapValue(c.eth, "dhcp4")
	if v == nil {
		return false
	}
	switch strings.ToLower(v.Value) {
	case "true", "yes", "on":
		return true
	}
	return false
}

// AddAddress appends address to the interface's addresses list, creating
// the list when missing. It returns false if the address is already there.
func (c *netplanConfig) AddAddress(address string) bool {
	addrs := findMapValue(c.eth, "addresses")
	if addrs == nil || addrs.Kind != yaml.SequenceNode {
		addrs = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		c.setValue("addresses", addrs)
	}
	for _, n := range addrs.Content {
		if n.Value == address {
			return false
		}
	}
	addrs.Content = append(addrs.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: address})
	return true
}

func (c *netplanConfig) setValue(key string, value *yaml.Node) {
	for i := 0; i+1 < len(c.eth.Content); i += 2 {
		if c.eth.Content[i].Value == key {
			c.eth.Content[i+1] = value
			return
		}
	}
	c.eth.Content = append(c.eth.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
}

// Bytes renders the edited document.
func (c *netplanConfig) Bytes() ([]byte, error) {
	return encodeYAML(c.doc)
}

func encodeYAML(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HasInterfacesStanza reports whether an /etc/network/interfaces file
// declares iface.
func HasInterfacesStanza(content, iface string) bool {
	for _, line := range strings.Split(content, "\n") {
		f := strings.Fields(line)
		if len(f) >= 3 && f[0] == "iface" && f[1] == iface && f[2] == "inet" {
			return true
		}
	}
	return false
}

// DHCPStanza is the interfaces.d entry that brings iface up with DHCP.
func DHCPStanza(iface string) string {
	return fmt.Sprintf("auto %[1]s\niface %[1]s inet dhcp\n", iface)
}
