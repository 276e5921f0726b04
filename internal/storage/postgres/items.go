package postgres

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/order-console/internal/domain/order"
)

// encodeLineItems serializes line items to JSON for the orders JSONB column.
// Unit prices are written as strings to avoid any float representation of
// NUMERIC values.
func encodeLineItems(items []order.LineItem) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, item := range items {
		e.ObjStart()
		e.FieldStart("product_id")
		e.Int64(item.ProductID)
		e.FieldStart("product_name")
		e.Str(item.ProductName)
		e.FieldStart("unit_price")
		e.Str(item.UnitPrice.String())
		e.FieldStart("quantity")
		e.Int(item.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

// decodeLineItems parses the JSONB items column back into line items,
// preserving their stored order.
func decodeLineItems(data []byte) ([]order.LineItem, error) {
	var items []order.LineItem

	d := jx.DecodeBytes(data)
	err := d.Arr(func(d *jx.Decoder) error {
		var item order.LineItem
		err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "product_id":
				id, err := d.Int64()
				if err != nil {
					return err
				}
				item.ProductID = id
			case "product_name":
				name, err := d.Str()
				if err != nil {
					return err
				}
				item.ProductName = name
			case "unit_price":
				raw, err := d.Str()
				if err != nil {
					return err
				}
				price, err := decimal.NewFromString(raw)
				if err != nil {
					return errors.Wrap(err, "parse unit price")
				}
				item.UnitPrice = price
			case "quantity":
				qty, err := d.Int()
				if err != nil {
					return err
				}
				item.Quantity = qty
			default:
				return d.Skip()
			}
			return nil
		})
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}
