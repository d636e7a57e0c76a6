package http

import (
	"encoding/json"

	"github.com/Faseeh06/music-app-sub000/internal/core"
	"github.com/Faseeh06/music-app-sub000/internal/proto"
)

// inboundToCommand validates an inbound frame and maps it to a core
// command. A non-nil proto.Error means the frame was understood but
// rejected; it is answered on the sending connection only and never
// touches room state.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoinSong:
		var join proto.JoinSongData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.SongID == "" || join.UserID == "" || join.UserName == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "songId, userId and userName are required"}, nil
		}
		return &core.Command{
			Kind:   core.CommandJoinRoom,
			Room:   join.SongID,
			Member: join.UserID,
			Name:   join.UserName,
		}, nil, nil
	case proto.InboundTypeAddReaction, proto.InboundTypeSendEmoji:
		// send-emoji is a legacy alias; both resolve to the same
		// command so the tally mutation stays single-sourced.
		var reaction proto.ReactionData
		if err := json.Unmarshal(inbound.Data, &reaction); err != nil {
			return nil, nil, err
		}
		if reaction.SongID == "" || reaction.UserID == "" || reaction.UserName == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "songId, userId and userName are required"}, nil
		}
		return &core.Command{
			Kind:   core.CommandReact,
			Room:   reaction.SongID,
			Member: reaction.UserID,
			Name:   reaction.UserName,
			Symbol: reaction.Emoji,
		}, nil, nil
	case proto.InboundTypeLeaveSong:
		var leave proto.LeaveSongData
		if err := json.Unmarshal(inbound.Data, &leave); err != nil {
			return nil, nil, err
		}
		if leave.SongID == "" || leave.UserID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "songId and userId are required"}, nil
		}
		return &core.Command{
			Kind:   core.CommandLeaveRoom,
			Room:   leave.SongID,
			Member: leave.UserID,
			Name:   leave.UserName,
		}, nil, nil
	case proto.InboundTypeGetReactions:
		var query proto.GetReactionsData
		if err := json.Unmarshal(inbound.Data, &query); err != nil {
			return nil, nil, err
		}
		if query.SongID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "songId is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandQueryReactions,
			Room: query.SongID,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomSnapshot:
		return proto.Outbound{
			Type: proto.OutboundTypeReactionUpdate,
			Data: proto.ReactionUpdateData{
				SongID:      event.Room,
				Reactions:   event.Reactions,
				ActiveUsers: event.ActiveUsers,
			},
		}
	case core.EventUserJoined:
		return proto.Outbound{
			Type: proto.OutboundTypeUserJoined,
			Data: proto.UserJoinedData{
				UserID:      event.Member,
				UserName:    event.Name,
				Message:     event.Message,
				ActiveUsers: event.ActiveUsers,
			},
		}
	case core.EventUserLeft:
		return proto.Outbound{
			Type: proto.OutboundTypeUserLeft,
			Data: proto.UserLeftData{
				UserID:      event.Member,
				UserName:    event.Name,
				Message:     event.Message,
				ActiveUsers: event.ActiveUsers,
			},
		}
	case core.EventReaction:
		return proto.Outbound{
			Type: proto.OutboundTypeEmojiReceived,
			Data: proto.EmojiReceivedData{
				Emoji:     event.Symbol,
				UserID:    event.Member,
				UserName:  event.Name,
				Timestamp: event.Timestamp,
				ID:        event.EventID,
			},
		}
	default:
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown event"},
		}
	}
}
