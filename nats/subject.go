package nats

import (
	"fmt"
)

func GetTableViewSubject(tableCode string) string {
	return fmt.Sprintf("table.%s.view", tableCode)
}

func GetTableScanSubject(tableCode string) string {
	return fmt.Sprintf("table.%s.scan", tableCode)
}
