package sqlgen

import "repair-ticket/model"

func (i TicketDetailRow) Detail() model.TicketDetail {
	images := i.Images
	if images == nil {
		images = []string{}
	}

	return model.TicketDetail{
		ID:             i.ID,
		TicketNumber:   i.TicketNumber,
		Title:          i.Title,
		Description:    i.Description,
		Status:         model.TicketStatus(i.Status),
		Priority:       model.TicketPriority(i.Priority),
		Images:         images,
		MondayTicketID: i.MondayTicketID,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
		User: model.TicketUser{
			ID:         i.UserID,
			Name:       i.UserName,
			Email:      i.UserEmail,
			Phone:      i.UserPhone,
			LineUserID: i.UserLineUserID,
		},
		Device: model.TicketDevice{
			ID:           i.DeviceID,
			SerialNumber: i.DeviceSerialNumber,
			ModelName:    i.ModelName,
			BrandName:    i.BrandName,
			CompanyName:  i.CompanyName,
		},
	}
}

func (i User) Response() model.UserResponse {
	return model.UserResponse{
		ID:         i.ID,
		Email:      i.Email,
		Name:       i.Name,
		Phone:      i.Phone,
		Role:       model.UserRole(i.Role),
		LineUserID: i.LineUserID,
		Image:      i.Image,
		CreatedAt:  i.CreatedAt,
	}
}

func (i RepairStatusHistory) Response() model.StatusHistoryResponse {
	var from *model.TicketStatus
	if i.FromStatus != nil {
		s := model.TicketStatus(*i.FromStatus)
		from = &s
	}

	return model.StatusHistoryResponse{
		ID:         i.ID,
		FromStatus: from,
		ToStatus:   model.TicketStatus(i.ToStatus),
		Note:       i.Note,
		CreatedAt:  i.CreatedAt,
	}
}
