package services

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Riboost-Studio/order-print-hub/internal/utils"
)

const (
	discoveryWorkers = 50
	probeTimeout     = 300 * time.Millisecond
)

// --- Discovery Logic ---

// DiscoverThermalPrinters scans the local /24 subnet for hosts accepting raw
// print jobs on port and returns their host:port addresses in order.
func DiscoverThermalPrinters(ctx context.Context, port int, logger *zap.Logger) []string {
	localIP, err := utils.DetectLocalIP()
	if err != nil {
		logger.Warn("Error detecting IP", zap.Error(err))
		return nil
	}
	parts := strings.Split(localIP, ".")
	subnet := strings.Join(parts[:3], ".")
	logger.Info("Scanning subnet", zap.String("subnet", subnet+".0/24"), zap.Int("port", port))

	ipChan := make(chan string, 256)
	foundChan := make(chan string, 256)
	var wg sync.WaitGroup

	for i := 0; i < discoveryWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ip := range ipChan {
				if ctx.Err() != nil {
					continue
				}
				if utils.Probe(ip, port, probeTimeout) {
					foundChan <- ip
				}
			}
		}()
	}

	for i := 1; i <= 254; i++ {
		ipChan <- fmt.Sprintf("%s.%d", subnet, i)
	}
	close(ipChan)

	go func() {
		wg.Wait()
		close(foundChan)
	}()

	var found []string
	for ip := range foundChan {
		found = append(found, ip)
	}
	sort.Slice(found, func(i, j int) bool {
		return lastOctet(found[i]) < lastOctet(found[j])
	})

	addrs := make([]string, len(found))
	for i, ip := range found {
		addrs[i] = net.JoinHostPort(ip, strconv.Itoa(port))
	}
	return addrs
}

func lastOctet(ip string) int {
	n, _ := strconv.Atoi(ip[strings.LastIndex(ip, ".")+1:])
	return n
}
