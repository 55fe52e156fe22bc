package order

import "shilajit-be/internal/notification"

// NotificationIntent snapshots o for the given notification kind.
func NotificationIntent(kind notification.Kind, o *Order) notification.Intent {
	return notification.Intent{
		Kind:      kind,
		Recipient: o.Customer.Email,
		Data:      toNotificationData(o),
	}
}

func toNotificationData(o *Order) notification.Data {
	items := make([]notification.Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, notification.Item{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	return notification.Data{
		OrderNumber:  o.OrderNumber,
		CustomerName: o.Customer.Name,
		Phone:        o.Customer.Phone,
		Address: notification.Address{
			Street:     o.Customer.Address.Street,
			City:       o.Customer.Address.City,
			Province:   o.Customer.Address.Province,
			PostalCode: o.Customer.Address.PostalCode,
			Country:    o.Customer.Address.Country,
		},
		Items:          items,
		Subtotal:       o.Subtotal,
		Shipping:       o.Shipping,
		Total:          o.Total,
		PaymentMethod:  string(o.PaymentMethod),
		PaymentStatus:  string(o.PaymentStatus),
		OrderStatus:    string(o.OrderStatus),
		TrackingNumber: o.TrackingNumber,
		CreatedAt:      o.CreatedAt,
	}
}
