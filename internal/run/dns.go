package run

import (
	"context"
	"log"
	"strings"

	"mactrace/internal/domain"
)

// Resolver is the reverse-DNS surface, satisfied by *net.Resolver.
type Resolver interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// ResolveHostnames performs reverse lookups for every correlated IP and
// fills in the records' hostname column. Returns the IP-to-hostname map
// and the lookup order for writing the hosts artifact. Failed lookups map
// to an empty hostname; they are expected for endpoints without PTR
// records and logged only for visibility.
func ResolveHostnames(ctx context.Context, resolver Resolver, records []domain.CorrelatedRecord) (map[string]string, []string) {
	hosts := make(map[string]string)
	var order []string

	for i := range records {
		ip := records[i].IP
		if _, done := hosts[ip]; !done {
			order = append(order, ip)
			hosts[ip] = ""

			names, err := resolver.LookupAddr(ctx, ip)
			if err != nil || len(names) == 0 {
				log.Printf("DNS: lookup failed for %s", ip)
			} else {
				hosts[ip] = strings.TrimSuffix(names[0], ".")
				log.Printf("DNS: %s -> %s", ip, hosts[ip])
			}
		}
		records[i].Hostname = hosts[ip]
	}

	return hosts, order
}
