package lotledger

// Exchange order lifecycle. A sell order reserves lots out of the
// exchange account until it closes; a buy order owns nothing until it
// fills.

// OpenSellOrder reserves lots backing a limit sell order.
func (l *Ledger) OpenSellOrder(exchange, pair, orderID, address string, asset Asset, amount uint64, price Money, method LotSelectionMethod) error {
	from := l.account(address, asset)
	if from == nil {
		return &AccountNotFoundError{Address: address, Asset: asset}
	}
	extracted, err := from.extractLots(amount, method, nil, l.allocateLotNumber)
	if err != nil {
		return err
	}
	l.openOrders = append(l.openOrders, OpenOrder{
		Exchange: exchange,
		Side:     Sell,
		OrderID:  orderID,
		Pair:     pair,
		Address:  address,
		Asset:    asset,
		Price:    price,
		Method:   method,
		Lots:     extracted,
	})
	return l.save()
}

// OpenBuyOrder records a limit buy order for a target amount. No lots
// are reserved.
func (l *Ledger) OpenBuyOrder(exchange, pair, orderID, address string, asset Asset, amount uint64, price Money) error {
	l.openOrders = append(l.openOrders, OpenOrder{
		Exchange: exchange,
		Side:     Buy,
		OrderID:  orderID,
		Pair:     pair,
		Address:  address,
		Asset:    asset,
		Price:    price,
		Amount:   amount,
	})
	return l.save()
}

// CloseOrder removes an order, applying whatever portion filled. For a
// sell, the filled portion is disposed as an exchange sale (with the
// optional fee) and the unfilled remainder returns to the account; for a
// buy, the filled portion becomes a new lot at the order price.
func (l *Ledger) CloseOrder(orderID string, when Date, filledAmount uint64, fee Money) error {
	o, ok := l.takeOpenOrder(orderID)
	if !ok {
		return &OpenOrderNotFoundError{OrderID: orderID}
	}
	switch o.Side {
	case Sell:
		held := lots(o.Lots)
		filled := held
		if filledAmount < held.total() {
			var returned lots
			filled, returned = extract(held, filledAmount, o.Method, nil, l.allocateLotNumber)
			l.mergeAt(o.Address, o.Asset, "", returned)
		}
		if len(filled) > 0 {
			l.dispose(filled, o.Asset, when, o.Price, ExchangeSale{
				Exchange: o.Exchange,
				Pair:     o.Pair,
				OrderID:  o.OrderID,
				Fee:      fee,
			})
		}
	case Buy:
		if filledAmount > 0 {
			l.mergeAt(o.Address, o.Asset, "", []Lot{{
				Number: l.allocateLotNumber(),
				Amount: filledAmount,
				Acquisition: Acquisition{
					When:  when,
					Price: o.Price,
					Kind:  ExchangeFill{Exchange: o.Exchange, Pair: o.Pair, OrderID: o.OrderID},
				},
			}})
		}
	}
	return l.save()
}

// OpenOrders lists open orders, filtered by exchange and side. An empty
// exchange matches all; a nil side matches both.
func (l *Ledger) OpenOrders(exchange string, side *OrderSide) []OpenOrder {
	var out []OpenOrder
	for _, o := range l.openOrders {
		if exchange != "" && o.Exchange != exchange {
			continue
		}
		if side != nil && o.Side != *side {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (l *Ledger) takeOpenOrder(orderID string) (OpenOrder, bool) {
	for i, o := range l.openOrders {
		if o.OrderID == orderID {
			l.openOrders = append(l.openOrders[:i], l.openOrders[i+1:]...)
			return o, true
		}
	}
	return OpenOrder{}, false
}
