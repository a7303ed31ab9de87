package entity

import (
	"fmt"
	"strings"
)

// ServiceType is the canonical fulfilment mode stored on carts and bookings.
type ServiceType string

const (
	ServiceTypeDelivery  ServiceType = "Delivery"
	ServiceTypeDineIn    ServiceType = "Dine in"
	ServiceTypeTakeaway  ServiceType = "Takeaway"
	ServiceTypePickup    ServiceType = "Pickup"
	ServiceTypeCarDineIn ServiceType = "Car Dine in"
)

// ServiceGroup partitions service types by fulfilment flow. Pickup and car
// dine-in follow the takeaway flow.
type ServiceGroup string

const (
	ServiceGroupDelivery ServiceGroup = "delivery"
	ServiceGroupDineIn   ServiceGroup = "dinein"
	ServiceGroupTakeaway ServiceGroup = "takeaway"
)

var collapser = strings.NewReplacer(" ", "", "-", "", "_", "")

// collapseServiceType reduces free-form client input to a comparison key:
// lowercase with spaces, hyphens and underscores removed.
func collapseServiceType(s string) string {
	return collapser.Replace(strings.ToLower(strings.TrimSpace(s)))
}

var serviceTypeAliases = map[string]ServiceType{
	"delivery":  ServiceTypeDelivery,
	"dinein":    ServiceTypeDineIn,
	"takeaway":  ServiceTypeTakeaway,
	"takeout":   ServiceTypeTakeaway,
	"pickup":    ServiceTypePickup,
	"cardinein": ServiceTypeCarDineIn,
}

// NormalizeServiceType resolves client input to a canonical service type.
// Unknown values are an error; nothing defaults silently.
func NormalizeServiceType(input string) (ServiceType, error) {
	st, ok := serviceTypeAliases[collapseServiceType(input)]
	if !ok {
		return "", fmt.Errorf("unknown service type %q", input)
	}
	return st, nil
}

var serviceGroups = map[ServiceType]ServiceGroup{
	ServiceTypeDelivery:  ServiceGroupDelivery,
	ServiceTypeDineIn:    ServiceGroupDineIn,
	ServiceTypeTakeaway:  ServiceGroupTakeaway,
	ServiceTypePickup:    ServiceGroupTakeaway,
	ServiceTypeCarDineIn: ServiceGroupTakeaway,
}

func GroupOf(st ServiceType) (ServiceGroup, error) {
	group, ok := serviceGroups[st]
	if !ok {
		return "", fmt.Errorf("unknown service type %q", st)
	}
	return group, nil
}

// statusFlow is the ordered happy path per group. Rejected and timeout sit
// outside every flow.
var statusFlow = map[ServiceGroup][]OrderStatus{
	ServiceGroupDelivery: {OrderStatusPending, OrderStatusAccepted, OrderStatusPreparing, OrderStatusOutForDelivery, OrderStatusCompleted},
	ServiceGroupTakeaway: {OrderStatusPending, OrderStatusAccepted, OrderStatusPreparing, OrderStatusReadyForPickup, OrderStatusCompleted},
	ServiceGroupDineIn:   {OrderStatusPending, OrderStatusAccepted, OrderStatusPreparing, OrderStatusServed, OrderStatusCompleted},
}

var stepLabels = map[OrderStatus]string{
	OrderStatusPending:        "Order Placed",
	OrderStatusAccepted:       "Order Accepted",
	OrderStatusPreparing:      "Preparing",
	OrderStatusOutForDelivery: "Out for Delivery",
	OrderStatusReadyForPickup: "Ready for Pickup",
	OrderStatusServed:         "Served",
	OrderStatusCompleted:      "Completed",
}

// StatusFlow returns the group's ordered status template.
func StatusFlow(group ServiceGroup) []OrderStatus {
	return statusFlow[group]
}

func StepLabel(status OrderStatus) string {
	return stepLabels[status]
}

// NextStatus returns the status following the current one in the group's
// flow. Pending does not advance here; the vendor decision moves it.
func NextStatus(group ServiceGroup, current OrderStatus) (OrderStatus, error) {
	if current == OrderStatusPending {
		return "", fmt.Errorf("order is pending, vendor must respond first")
	}
	if current.Terminal() {
		return "", fmt.Errorf("order status %s is terminal", current)
	}

	flow := statusFlow[group]
	for i, s := range flow {
		if s == current {
			return flow[i+1], nil
		}
	}
	return "", fmt.Errorf("status %s is not part of the %s flow", current, group)
}
