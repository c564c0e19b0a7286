package store

// Reducers run under the store mutex and are the only writers of their slice.

func reduceAuth(st *AuthState, in SetUser) bool {
	st.UserID = in.UserID
	return true
}

func reduceCatalog(st *CatalogState, intent Intent) bool {
	switch in := intent.(type) {
	case CatalogFetchStarted:
		if in.Token < st.LatestToken {
			// A later-issued request already announced itself; letting an
			// older start rewind LatestToken would make its result win.
			return false
		}
		st.Filter = in.Filter
		st.FilterSet = true
		st.LatestToken = in.Token
		st.Loading = true
		st.Error = ""
		return true

	case CatalogFetchSucceeded:
		if in.Token != st.LatestToken {
			// Stale response: a newer request was issued after this one.
			return false
		}
		st.Products = in.Page.Items
		st.TotalPages = in.Page.TotalPages
		st.Loading = false
		st.Error = ""
		return true

	case CatalogFetchFailed:
		if in.Token != st.LatestToken {
			return false
		}
		// Products stay as last-known-good; first load leaves them empty.
		st.Loading = false
		st.Error = in.Reason
		return true
	}
	return false
}

func reduceCart(st *CartState, intent Intent) bool {
	switch in := intent.(type) {
	case CartLoaded:
		st.Items = in.Items
		st.Error = ""
		return true

	case CartItemReplaced:
		for i := range st.Items {
			if st.Items[i].ID == in.Item.ID {
				st.Items[i] = in.Item
				st.Error = ""
				return true
			}
		}
		// Item confirmed by the cart service but unknown locally: adopt it.
		st.Items = append(st.Items, in.Item)
		st.Error = ""
		return true

	case CartItemRemoved:
		for i := range st.Items {
			if st.Items[i].ID == in.ItemID {
				st.Items = append(st.Items[:i], st.Items[i+1:]...)
				st.Error = ""
				return true
			}
		}
		return false

	case CartLoadFailed:
		// Items stay as previously loaded.
		st.Error = in.Reason
		return true

	case CartMutationFailed:
		st.Error = in.Reason
		return true
	}
	return false
}

func reduceOrder(st *OrderState, intent Intent) bool {
	switch in := intent.(type) {
	case OrderFetchStarted:
		st.Loading = true
		st.Error = ""
		return true

	case OrderResolved:
		order := in.Order
		st.Order = &order
		st.ResolvedID = order.ID
		st.Loading = false
		st.Error = ""
		return true

	case OrderFetchFailed:
		st.Loading = false
		st.Error = in.Reason
		return true
	}
	return false
}
