/*
Package mobynet discovers the IP subnets of the Docker networks attached to a
particular container, together with a reference to the container's network
namespace. Sweeping these subnets from inside the container's network
namespace then shows which other containers (and hosts) are reachable from the
perspective of that container.
*/
package mobynet
