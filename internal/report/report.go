// Package report writes the run's output artifacts: the correlated CSV,
// the reverse-DNS hosts file, and the collected MAC list.
package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"mactrace/internal/domain"
)

// csvHeader is the fixed column order of the output artifact.
var csvHeader = []string{"Hostname", "IP", "MAC", "Switch", "Port", "VLAN"}

// WriteCSV writes one row per correlated record to path.
func WriteCSV(path string, records []domain.CorrelatedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range records {
		row := []string{r.Hostname, r.IP, r.Mac, r.Device, r.Port, r.Vlan}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// WriteHostsFile writes "ip hostname" lines, one per reverse lookup. IPs
// that failed resolution are written with an empty hostname so the file
// doubles as a record of what was attempted.
func WriteHostsFile(path string, hosts map[string]string, order []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, ip := range order {
		hostname := hosts[ip]
		if _, err := fmt.Fprintf(w, "%s %s\n", ip, hostname); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return w.Flush()
}

// ParseHostsFile reads a hosts file back into an IP-to-hostname map.
// Missing files are not an error; the artifact is optional input.
func ParseHostsFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	hosts := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		if len(parts) == 2 {
			hosts[parts[0]] = strings.TrimSpace(parts[1])
		} else {
			hosts[parts[0]] = ""
		}
	}
	return hosts, nil
}

// WriteMACList writes the collected MAC addresses, one per line, in their
// stored representation.
func WriteMACList(path string, macs []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, mac := range macs {
		if _, err := fmt.Fprintln(w, mac); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return w.Flush()
}
