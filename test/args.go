// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package test

// DcTestUpArgs specifies docker-compose CLI args for setting up the test
// harness.
var DcTestUpArgs = []string{
	"-f", "../test/docker-compose.yaml",
	"up",
	"-d",
}

// DcTestDnArgs specifies docker-compose CLI args for tearing down the test
// harness.
var DcTestDnArgs = []string{
	"-f", "../test/docker-compose.yaml",
	"down",
	"-t", "1",
}

// Addressing of the test harness, see docker-compose.yaml.
const (
	TestContainer = "test-test-1"  // container to sweep from.
	NetworkName   = "test_net_A"   // network the test containers are attached to.
	NetworkSubnet = "172.30.242.0" // base address of the network.
	NetworkPrefix = 29             // prefix length of the network.
	TestAddress   = "172.30.242.2" // address of the test container itself.
	PeerAddress   = "172.30.242.3" // address of the peer container.
	SilentAddress = "172.30.242.5" // unused address, so no-one answers.
)
