package payment

import (
	"strings"

	"shilajit-be/internal/order"
)

var InstructionMap = map[order.PaymentMethod][]string{
	order.MethodWallet: {
		"Open the Easypaisa app or scan the QR code shown on this page",
		"Confirm the payment of PKR {{amount}}",
		"Keep the transaction reference {{reference}} for your records",
		"Your order will be processed as soon as Easypaisa confirms the payment",
	},

	order.MethodBankTransfer: {
		"Transfer PKR {{amount}} to the account shown above",
		"Use {{reference}} as the transaction reference",
		"Keep your bank receipt until the payment is verified",
		"Your order will be processed after payment verification",
	},

	order.MethodCashOnDelivery: {
		"Please have the exact amount ready: PKR {{amount}}",
		"Our delivery person will collect payment upon delivery",
		"You'll receive a call before delivery",
		"Expected delivery: 3-5 business days",
	},
}

func GetInstructions(method order.PaymentMethod) []string {
	if steps, ok := InstructionMap[method]; ok {
		return steps
	}

	return []string{
		"Follow the payment instructions shown on this page",
	}
}

type InstructionVars map[string]string

func InjectVariables(
	steps []string,
	vars InstructionVars,
) []string {
	result := make([]string, 0, len(steps))

	for _, step := range steps {
		updated := step
		for key, value := range vars {
			updated = strings.ReplaceAll(
				updated,
				"{{"+key+"}}",
				value,
			)
		}
		result = append(result, updated)
	}

	return result
}
